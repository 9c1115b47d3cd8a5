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
 *  rom_fs.go - NCCH ROM Filesystem. Es decodifica l'arbre sencer en
 *              memòria; les dades dels fitxers es queden en la imatge
 *              i s'obrin com a finestres.
 */

package citrus

import (
  "fmt"

  "github.com/adriagipas/ctrvfs/utils"
)


/*********/
/* TIPUS */
/*********/

// Offset del nivell 3 de l'IVFC respecte l'inici del RomFS.
const _BASE_OFFSET= 0x1000

// Valor que marca l'absència d'un enllaç en les taules de metadades.
const ROMFS_NONE= 0xFFFFFFFF

type RomFS_Directory struct {

  Name string // La cadena buida representa el root

  Dirs  []*RomFS_Directory
  Files []*RomFS_File

}

type RomFS_File struct {

  Name string
  Size int64

  acc    utils.Accessor // Finestra de dades del nivell 3
  offset int64

}

type RomFS struct {

  Root *RomFS_Directory

  acc utils.Accessor

}

// Estat intern del recorregut de les taules de metadades.
type romFSParser struct {

  acc       utils.Accessor
  dir_meta  utils.Accessor
  file_meta utils.Accessor
  file_data utils.Accessor

}


/************/
/* FUNCIONS */
/************/

// Torna cert si l'accessor comença amb una capçalera IVFC de RomFS.
func ProbeRomFS( acc utils.Accessor ) bool {

  if acc.Len () < _BASE_OFFSET+0x28 { return false }
  var buf [8]byte
  if err:= acc.Read ( buf[:], 0 ); err != nil { return false }

  return buf[0]=='I' && buf[1]=='V' && buf[2]=='F' && buf[3]=='C' &&
    buf[4]==0x00 && buf[5]==0x00 && buf[6]==0x01 && buf[7]==0x00

} // end ProbeRomFS


func (self *RomFS_File) Open() (utils.Accessor,error) {
  return utils.Slice ( self.acc, self.offset, self.Size )
} // end RomFS_File.Open


// Cerca sense distingir majúscules de minúscules ASCII. Si no el
// troba torna nil.
func (self *RomFS_Directory) LookupDir( name string ) *RomFS_Directory {

  name= toLowerASCII ( name )
  for _,d:= range self.Dirs {
    if toLowerASCII ( d.Name ) == name {
      return d
    }
  }

  return nil

} // end LookupDir


// Com LookupDir però per a fitxers.
func (self *RomFS_Directory) LookupFile( name string ) *RomFS_File {

  name= toLowerASCII ( name )
  for _,f:= range self.Files {
    if toLowerASCII ( f.Name ) == name {
      return f
    }
  }

  return nil

} // end LookupFile


func (self *romFSParser) parseFile( entry_offset uint32 ) (*RomFS_File,
  uint32,error) {

  var buf [0x20]byte
  if err:= self.file_meta.Read ( buf[:], int64(entry_offset) ); err != nil {
    return nil,0,fmt.Errorf (
      "Error while reading File entry for offset %08X: %w",
      entry_offset, err )
  }

  sibling:= uint32(buf[4]) |
    (uint32(buf[5])<<8) |
    (uint32(buf[6])<<16) |
    (uint32(buf[7])<<24)
  if (buf[15]&0x80)!=0 || (buf[23]&0x80)!=0 {
    return nil,0,fmt.Errorf (
      "Error while reading File entry for offset %08X: file too large: %w",
      entry_offset, utils.ErrInvalidFormat )
  }
  offset:= int64(uint64(buf[8]) |
    (uint64(buf[9])<<8) |
    (uint64(buf[10])<<16) |
    (uint64(buf[11])<<24) |
    (uint64(buf[12])<<32) |
    (uint64(buf[13])<<40) |
    (uint64(buf[14])<<48) |
    (uint64(buf[15])<<56))
  size:= int64(uint64(buf[16]) |
    (uint64(buf[17])<<8) |
    (uint64(buf[18])<<16) |
    (uint64(buf[19])<<24) |
    (uint64(buf[20])<<32) |
    (uint64(buf[21])<<40) |
    (uint64(buf[22])<<48) |
    (uint64(buf[23])<<56))
  name_length:= uint32(buf[28]) |
    (uint32(buf[29])<<8) |
    (uint32(buf[30])<<16) |
    (uint32(buf[31])<<24)
  name:= ""
  if name_length > 0 {
    var err error
    name,err= utils.ReadUTF16String ( self.file_meta,
      int64(entry_offset)+0x20, int64(name_length) )
    if err != nil {
      return nil,0,fmt.Errorf (
        "Error while reading File name for offset %08X: %w",
        entry_offset, err )
    }
  }

  // Comprova que les dades queden dins de la regió.
  if offset+size > self.file_data.Len () {
    return nil,0,fmt.Errorf (
      "Error while reading File entry for offset %08X: data segment"+
      " ([%d,%d[) is past the end of the file data region ([0,%d[): %w",
      entry_offset, offset, offset+size, self.file_data.Len (),
      utils.ErrInvalidFormat )
  }

  ret:= RomFS_File{
    Name: name,
    Size: size,
    acc: self.file_data,
    offset: offset,
  }

  return &ret,sibling,nil

} // end romFSParser.parseFile


func (self *romFSParser) parseDirectory( entry_offset uint32 ) (
  *RomFS_Directory,uint32,error) {

  var buf [0x18]byte
  if err:= self.dir_meta.Read ( buf[:], int64(entry_offset) ); err != nil {
    return nil,0,fmt.Errorf (
      "Error while reading Directory entry for offset %08X: %w",
      entry_offset, err )
  }

  sibling:= uint32(buf[4]) |
    (uint32(buf[5])<<8) |
    (uint32(buf[6])<<16) |
    (uint32(buf[7])<<24)
  child:= uint32(buf[8]) |
    (uint32(buf[9])<<8) |
    (uint32(buf[10])<<16) |
    (uint32(buf[11])<<24)
  file:= uint32(buf[12]) |
    (uint32(buf[13])<<8) |
    (uint32(buf[14])<<16) |
    (uint32(buf[15])<<24)
  name_length:= uint32(buf[20]) |
    (uint32(buf[21])<<8) |
    (uint32(buf[22])<<16) |
    (uint32(buf[23])<<24)
  name:= ""
  if name_length > 0 {
    var err error
    name,err= utils.ReadUTF16String ( self.dir_meta,
      int64(entry_offset)+0x18, int64(name_length) )
    if err != nil {
      return nil,0,fmt.Errorf (
        "Error while reading Directory name for offset %08X: %w",
        entry_offset, err )
    }
  }

  ret:= RomFS_Directory{
    Name: name,
  }

  // Subdirectoris. El primer fill enllaça amb els germans.
  for it:= child; it != ROMFS_NONE; {
    if it == entry_offset {
      return nil,0,fmt.Errorf (
        "Error while reading Directory entry for offset %08X: cycle in"+
        " the directory table: %w", entry_offset, utils.ErrInvalidFormat )
    }
    subdir,next,err:= self.parseDirectory ( it )
    if err != nil { return nil,0,err }
    ret.Dirs= append(ret.Dirs,subdir)
    if next == it { break } // Cas especial
    it= next
  }

  // Fitxers.
  for it:= file; it != ROMFS_NONE; {
    f,next,err:= self.parseFile ( it )
    if err != nil { return nil,0,err }
    ret.Files= append(ret.Files,f)
    if next == it { break } // Cas especial
    it= next
  }

  return &ret,sibling,nil

} // end romFSParser.parseDirectory


func NewRomFS( acc utils.Accessor ) (*RomFS,error) {

  // Comprova capçalera IVFC.
  var buf [8]byte
  if err:= acc.Read ( buf[:], 0 ); err != nil {
    return nil,fmt.Errorf ( "Error while reading RomFS header: %w", err )
  }
  if buf[0]!='I' || buf[1]!='V' || buf[2]!='F' || buf[3]!='C' ||
    buf[4]!=0x00 || buf[5]!=0x00 || buf[6]!=0x01 || buf[7]!=0x00 {
    return nil,fmt.Errorf (
      "Not a RomFS file: wrong magic number (%c%c%c%c%d%d%d%d): %w",
      buf[0], buf[1], buf[2], buf[3], buf[4], buf[5], buf[6], buf[7],
      utils.ErrInvalidFormat )
  }

  // Llig la capçalera del nivell 3.
  var lvl3 [0x28]byte
  if err:= acc.Read ( lvl3[:], _BASE_OFFSET ); err != nil {
    return nil,fmt.Errorf ( "Error while reading RomFS Level 3 header: %w",
      err )
  }
  readU32:= func(off int) int64 {
    return int64(uint32(lvl3[off]) |
      (uint32(lvl3[off+1])<<8) |
      (uint32(lvl3[off+2])<<16) |
      (uint32(lvl3[off+3])<<24))
  }
  dir_meta_off:= readU32 ( 0xc )
  dir_meta_len:= readU32 ( 0x10 )
  file_meta_off:= readU32 ( 0x1c )
  file_meta_len:= readU32 ( 0x20 )
  file_data_off:= readU32 ( 0x24 )

  // Crea les finestres de les taules.
  dir_meta,err:= utils.Slice ( acc, _BASE_OFFSET+dir_meta_off, dir_meta_len )
  if err != nil {
    return nil,fmt.Errorf ( "Error while reading RomFS Level 3 header:"+
      " directory table: %w", err )
  }
  file_meta,err:= utils.Slice ( acc, _BASE_OFFSET+file_meta_off,
    file_meta_len )
  if err != nil {
    return nil,fmt.Errorf ( "Error while reading RomFS Level 3 header:"+
      " file table: %w", err )
  }
  file_data,err:= utils.Slice ( acc, _BASE_OFFSET+file_data_off,
    acc.Len ()-(_BASE_OFFSET+file_data_off) )
  if err != nil {
    return nil,fmt.Errorf ( "Error while reading RomFS Level 3 header:"+
      " file data: %w", err )
  }

  // Construeix l'índex.
  parser:= romFSParser{
    acc: acc,
    dir_meta: dir_meta,
    file_meta: file_meta,
    file_data: file_data,
  }
  root,_,err:= parser.parseDirectory ( 0 )
  if err != nil { return nil,err }

  ret:= RomFS{
    Root: root,
    acc: acc,
  }

  return &ret,nil

} // end NewRomFS
