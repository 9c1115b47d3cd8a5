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
 *  exe_fs_build.go - Reconstrucció d'un ExeFS a partir d'una llista
 *                    ordenada de fitxers.
 */

package citrus

import (
  "crypto/sha256"
  "fmt"

  "github.com/adriagipas/ctrvfs/utils"
)


/*********/
/* TIPUS */
/*********/

type ExeFS_BuildFile struct {

  Name string
  Data []byte

}


/************/
/* FUNCIONS */
/************/

// Serialitza un ExeFS. L'ordre dels descriptors és el de la llista.
// Cada fitxer comença alineat a MEDIA_UNIT dins de la regió de dades
// i el seu hash SHA-256 es guarda en ordre invers als descriptors.
func BuildExeFS( files []ExeFS_BuildFile ) ([]byte,error) {

  // Comprovacions de capacitat.
  if len(files) > 10 {
    return nil,fmt.Errorf ( "cannot build ExeFS: %d files (max 10): %w",
      len(files), utils.ErrExeFSCapacity )
  }
  for i:= range files {
    if len(files[i].Name) > 8 {
      return nil,fmt.Errorf ( "cannot build ExeFS: file name '%s' is"+
        " longer than 8 bytes: %w", files[i].Name, utils.ErrExeFSCapacity )
    }
    if len(files[i].Name) == 0 {
      return nil,fmt.Errorf ( "cannot build ExeFS: empty file name: %w",
        utils.ErrExeFSCapacity )
    }
  }

  // Assigna offsets.
  offsets:= make([]int64,len(files))
  var data_size int64= 0
  for i:= range files {
    offsets[i]= data_size
    data_size= utils.AlignUp ( data_size + int64(len(files[i].Data)),
      MEDIA_UNIT )
  }

  // Capçalera.
  ret:= make([]byte,EXEFS_HEADER_SIZE+data_size)
  for i:= range files {

    // Descriptor.
    mem:= ret[i*16:(i+1)*16]
    copy ( mem[:8], files[i].Name )
    offset:= uint32(offsets[i])
    size:= uint32(len(files[i].Data))
    mem[8]= uint8(offset)
    mem[9]= uint8(offset>>8)
    mem[10]= uint8(offset>>16)
    mem[11]= uint8(offset>>24)
    mem[12]= uint8(size)
    mem[13]= uint8(size>>8)
    mem[14]= uint8(size>>16)
    mem[15]= uint8(size>>24)

    // Hash en ordre invers.
    hash:= sha256.Sum256 ( files[i].Data )
    copy ( ret[0xc0+(9-i)*0x20:0xc0+(10-i)*0x20], hash[:] )

  }

  // Dades.
  for i:= range files {
    copy ( ret[EXEFS_HEADER_SIZE+offsets[i]:], files[i].Data )
  }

  return ret,nil

} // end BuildExeFS
