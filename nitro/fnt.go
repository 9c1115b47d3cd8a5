/*
 * Copyright 2025 Adrià Giménez Pastor.
 *
 * This file is part of adriagipas/ctrvfs.
 *
 * adriagipas/ctrvfs is free software: you can redistribute it and/or
 * modify it under the terms of the GNU General Public License as
 * published by the Free Software Foundation, either version 3 of the
 * License, or (at your option) any later version.
 *
 * adriagipas/ctrvfs is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
 * General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with adriagipas/ctrvfs.  If not, see
 * <https://www.gnu.org/licenses/>.
 */
/*
 *  fnt.go - Filename Table dels cartutxos DS. La taula principal té
 *           una entrada de 8 bytes per directori; cada directori
 *           llista les seues entrades en una subtaula de registres de
 *           longitud variable.
 */

package nitro

import (
  "fmt"

  "github.com/adriagipas/ctrvfs/utils"
)


/*********/
/* TIPUS */
/*********/

// Els identificadors de directori tenen el bit 15 actiu; l'índex en
// la taula principal són els 12 bits baixos.
const _DIR_ID_BASE= 0xF000

type FNT_Entry struct {

  Name  string
  IsDir bool

  // Índex en la FAT per als fitxers; identificador de directori per
  // als directoris.
  ID uint16

}

type FNT_Directory struct {

  Entries []FNT_Entry

}

type FNT struct {

  // Directoris indexats per identificador (sense _DIR_ID_BASE).
  // L'entrada 0 és el directori arrel.
  Dirs []FNT_Directory

}


/************/
/* FUNCIONS */
/************/

// Llig la subtaula d'un directori. offset és relatiu a l'inici de la
// FNT.
func parseFNTSubTable( acc utils.Accessor, table NDS_Table,
  sub_offset uint32, first_file_id uint16 ) (FNT_Directory,error) {

  ret:= FNT_Directory{}
  offset:= table.Offset + int64(sub_offset)
  file_id:= first_file_id
  for {

    length,err:= utils.ReadU8 ( acc, offset )
    if err != nil {
      return ret,fmt.Errorf ( "Error while reading NDS FNT sub-table: %w",
        err )
    }
    offset++

    if length == 0 { // Final de la subtaula
      break

    } else if length == 0x80 { // Reservat
      return ret,fmt.Errorf ( "Error while reading NDS FNT sub-table:"+
        " reserved entry length (0x80): %w", utils.ErrInvalidFormat )

    } else if length < 0x80 { // Fitxer
      name,err:= utils.ReadString ( acc, offset, int64(length) )
      if err != nil {
        return ret,fmt.Errorf ( "Error while reading NDS FNT sub-table: %w",
          err )
      }
      offset+= int64(length)
      ret.Entries= append(ret.Entries,FNT_Entry{
        Name: name,
        IsDir: false,
        ID: file_id,
      })
      file_id++

    } else { // Directori
      name,err:= utils.ReadString ( acc, offset, int64(length-0x80) )
      if err != nil {
        return ret,fmt.Errorf ( "Error while reading NDS FNT sub-table: %w",
          err )
      }
      offset+= int64(length-0x80)
      dir_id,err:= utils.ReadU16 ( acc, offset )
      if err != nil {
        return ret,fmt.Errorf ( "Error while reading NDS FNT sub-table: %w",
          err )
      }
      offset+= 2
      ret.Entries= append(ret.Entries,FNT_Entry{
        Name: name,
        IsDir: true,
        ID: dir_id,
      })
    }

  }

  return ret,nil

} // end parseFNTSubTable


func parseFNT( acc utils.Accessor, table NDS_Table ) (*FNT,error) {

  // L'entrada de l'arrel guarda el nombre total de directoris en el
  // camp del directori pare.
  if table.Size < 8 {
    return nil,fmt.Errorf ( "Error while reading NDS FNT: table is too"+
      " small (%d B): %w", table.Size, utils.ErrInvalidFormat )
  }
  ndirs,err:= utils.ReadU16 ( acc, table.Offset+6 )
  if err != nil {
    return nil,fmt.Errorf ( "Error while reading NDS FNT: %w", err )
  }
  if ndirs == 0 || int64(ndirs)*8 > table.Size {
    return nil,fmt.Errorf ( "Error while reading NDS FNT: wrong directory"+
      " count (%d): %w", ndirs, utils.ErrInvalidFormat )
  }

  // Subtaules.
  ret:= FNT{
    Dirs: make([]FNT_Directory,ndirs),
  }
  for i:= 0; i < int(ndirs); i++ {

    sub_offset,err:= utils.ReadU32 ( acc, table.Offset+int64(i)*8 )
    if err != nil {
      return nil,fmt.Errorf ( "Error while reading NDS FNT: %w", err )
    }
    first_file_id,err:= utils.ReadU16 ( acc, table.Offset+int64(i)*8+4 )
    if err != nil {
      return nil,fmt.Errorf ( "Error while reading NDS FNT: %w", err )
    }
    dir,err:= parseFNTSubTable ( acc, table, sub_offset, first_file_id )
    if err != nil { return nil,err }
    ret.Dirs[i]= dir

  }

  return &ret,nil

} // end parseFNT


// Torna el directori associat a un identificador de la FNT, o nil si
// no existeix.
func (self *FNT) Dir( id uint16 ) *FNT_Directory {

  ind:= int(id) & 0xFFF
  if ind >= len(self.Dirs) { return nil }

  return &self.Dirs[ind]

} // end FNT.Dir
